// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides [POSIX]-compliant helper functions for cross-platform compatibility.
//
// The client's usage text names the binary it was invoked as, so the helpers
// here normalize os.Args[0] into a clean executable name regardless of the
// host platform's path conventions.
//
// [POSIX]: https://en.wikipedia.org/wiki/POSIX
package posix
