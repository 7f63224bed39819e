// SPDX-License-Identifier: EPL-2.0

// Package bank holds the records the voice engine plays from: decoded assets,
// sound, stream and mixer definitions.
//
// A Bank is filled by the caller, usually while assets are decoded in the
// background, and handed to the engine once ready. Definitions are trusted as
// given; the engine only re-checks that referenced assets and mixers exist
// when it uses them.
package bank
