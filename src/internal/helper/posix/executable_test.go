// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix_test

import (
	"os"
	"testing"

	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/internal/helper/posix"
	"github.com/stretchr/testify/assert"
)

func TestGetExecutableName(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	tests := []struct {
		name string
		argv []string
		want string
	}{
		{name: "unix path", argv: []string{"/usr/local/bin/tls-mtls-test-client"}, want: "tls-mtls-test-client"},
		{name: "windows path with exe", argv: []string{`C:\tools\tls-mtls-test-client.exe`}, want: "tls-mtls-test-client"},
		{name: "bare name", argv: []string{"tls-mtls-test-client"}, want: "tls-mtls-test-client"},
		{name: "empty argv", argv: []string{}, want: "tls-mtls-test-client"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.argv
			assert.Equal(t, tt.want, posix.GetExecutableName())
		})
	}
}
