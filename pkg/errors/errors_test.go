// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
)

func TestWrap(t *testing.T) {
	if Wrap(nil, "msg") != nil {
		t.Error("Wrap(nil, msg) should return nil")
	}
	err := errors.New("base")
	wrapped := Wrap(err, "context")
	if wrapped == nil {
		t.Fatal("Wrap(err, msg) should not return nil")
	}
	if !errors.Is(wrapped, err) {
		t.Error("wrapped error should unwrap to base")
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "format %s", "x") != nil {
		t.Error("Wrapf(nil, ...) should return nil")
	}
	err := errors.New("base")
	wrapped := Wrapf(err, "flow=%s", "a")
	if wrapped == nil {
		t.Fatal("Wrapf(err, ...) should not return nil")
	}
	if wrapped.Error() != "flow=a: base" {
		t.Errorf("Wrapf message = %q", wrapped.Error())
	}
}

func TestStatusError(t *testing.T) {
	err := Wrap(&StatusError{Op: "POST /analyze", Code: 500, Body: `{"error":"boom"}`}, "analyze")
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatal("StatusError should unwrap to ErrUnexpectedStatus")
	}
	se, ok := AsStatus(err)
	if !ok {
		t.Fatal("AsStatus should find StatusError")
	}
	if se.Code != 500 || se.Body != `{"error":"boom"}` {
		t.Errorf("unexpected StatusError %+v", se)
	}
	if _, ok := AsStatus(errors.New("plain")); ok {
		t.Error("AsStatus on plain error should be false")
	}
}

func TestStatusError_NotFound(t *testing.T) {
	err := Wrap(&StatusError{Op: "GET /generate", Code: 404, Body: `{"error":"Flow not found"}`}, "status")
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("404 StatusError should match ErrNotFound")
	}
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatal("404 StatusError should still match ErrUnexpectedStatus")
	}
	if errors.Is(&StatusError{Code: 400}, ErrNotFound) {
		t.Error("400 StatusError should not match ErrNotFound")
	}
}

func TestIsConnectionFailure(t *testing.T) {
	dial := &url.Error{
		Op:  "Post",
		URL: "http://localhost:9002/api",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")},
	}
	read := &url.Error{
		Op:  "Post",
		URL: "http://localhost:9002/api",
		Err: &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")},
	}
	dns := fmt.Errorf("lookup: %w", &net.DNSError{Err: "no such host", Name: "nowhere.invalid"})

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"dial", dial, true},
		{"wrapped dial", Wrap(dial, "analyze"), true},
		{"read", read, false},
		{"dns", dns, true},
		{"sentinel", Wrap(ErrUnavailable, "ping"), true},
		{"status", &StatusError{Code: 404}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsConnectionFailure(tc.err); got != tc.want {
				t.Errorf("IsConnectionFailure = %v, want %v", got, tc.want)
			}
		})
	}
}
