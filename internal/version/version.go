// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package version

// Version is the release version. Overridden at build time via
// -ldflags "-X github.com/staranto/tudsgo/internal/version.Version=...".
var Version = "0.2.0-dev"
