// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/grouppages/internal/app/system/viewdata"
)

// RenderUnauthorized shows a friendly “sign in required” page.
// If backURL is empty, it will default to /user/login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/user/login"
	}
	vm := viewdata.NewBaseVM(r, "Sign in required", backURL)
	vm.BackURL = backURL
	render(w, r, http.StatusUnauthorized, pageData{BaseVM: vm, Message: "Please sign in to continue."})
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	vm := viewdata.NewBaseVM(r, "Access denied", "/")
	if backURL != "" {
		vm.BackURL = backURL
	}
	render(w, r, http.StatusForbidden, pageData{BaseVM: vm, Message: msg})
}

// RenderNotFound shows the "page not found" page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, backURL string) {
	vm := viewdata.NewBaseVM(r, "Page not found", "/")
	if backURL != "" {
		vm.BackURL = backURL
	}
	render(w, r, http.StatusNotFound, pageData{BaseVM: vm, Message: "The requested page could not be found."})
}
