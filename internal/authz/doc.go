// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

// Package authz enforces role-based access to API paths with Casbin.
//
// Three roles ship in the embedded policy. viewer reads the real estate
// dashboard, analyst additionally reads social analytics, and admin may
// also trigger syncs and clear the cache. CASBIN_MODEL_PATH and
// CASBIN_POLICY_PATH replace the embedded files.
package authz
