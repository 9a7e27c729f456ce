// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package tu downloads, caches and loads the TU Dortmund graph kernel
// benchmark datasets. A Dataset is a two-stage disk cache: raw text files
// fetched from upstream once, and processed JSON artifacts derived from them
// once, reused by every subsequent load.
package tu
