// Package service declares the operations of each Vinli backend service.
//
// Each service is a thin set of request builders over a rest.Client. Nothing here validates
// parameters or retries; the backend is the authority on both.
package service
