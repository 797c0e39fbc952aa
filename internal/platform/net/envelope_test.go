package net

import (
	"net/http"
	"testing"

	perr "opendash/internal/platform/errors"
)

func TestFailure(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   perr.ErrorCode
	}{
		{"not found", perr.NotFoundf("dataset"), http.StatusNotFound, perr.ErrorCodeNotFound},
		{"forbidden", perr.Forbiddenf("role %q required", "admin"), http.StatusForbidden, perr.ErrorCodeForbidden},
		{"upstream", perr.Unavailablef("catalog down"), http.StatusServiceUnavailable, perr.ErrorCodeUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := Failure(tc.err, "req-1")
			if status != tc.status || env.StatusCode != tc.status || env.Code != tc.code {
				t.Fatalf("status=%d env=%+v", status, env)
			}
			if env.RequestID != "req-1" || env.Status != http.StatusText(tc.status) || env.Error == "" {
				t.Fatalf("env = %+v", env)
			}
		})
	}
}

func TestSuccess(t *testing.T) {
	env := Success(http.StatusOK, []int{1}, "")
	if env.Status != "OK" || env.Data == nil || env.Error != "" {
		t.Fatalf("env = %+v", env)
	}
}
