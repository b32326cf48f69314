package common

import (
	"net/http"

	"github.com/gorilla/mux"
)

// PostAndJSONMatcher rejects POST requests that do not carry a JSON body;
// other methods pass through untouched.
func PostAndJSONMatcher(r *http.Request, rm *mux.RouteMatch) bool {
	if r.Method != "POST" {
		return true
	}

	return r.Header.Get("Content-Type") == "application/json"
}
