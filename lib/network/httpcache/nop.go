package httpcache

import "net/http"

// NopClient is the no-cache stand-in: handlers come back unwrapped. A node
// without a cache adapter runs on this.
type NopClient struct{}

func NewNopClient() *NopClient {
	return &NopClient{}
}

func (NopClient) WrapHandlerFunc(handlerFunc http.HandlerFunc) http.HandlerFunc {
	return handlerFunc
}
