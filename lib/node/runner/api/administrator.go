package api

import (
	"net/http"

	"maatnet.io/maat/lib/errors"
	"maatnet.io/maat/lib/governance"
	"maatnet.io/maat/lib/network/httputils"
	"maatnet.io/maat/lib/node/runner/api/resource"
)

// GetAdministratorHandler answers the current administrator account.
func (api NetworkHandlerAPI) GetAdministratorHandler(w http.ResponseWriter, r *http.Request) {
	found, err := governance.ExistsAdministrator(api.storage)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	if !found {
		httputils.WriteJSONError(w, errors.AdministratorNotFound)
		return
	}

	a, err := governance.GetAdministrator(api.storage)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, resource.NewAdministrator(a))
}
