// SPDX-License-Identifier: EPL-2.0

package bank

import "errors"

var (
	ErrUnknownFormat      = errors.New("unknown audio format")
	ErrAssetExists        = errors.New("asset already loaded")
	ErrDefinitionExists   = errors.New("definition already exists")
	ErrDefinitionNotFound = errors.New("definition not found")
	ErrEmptyName          = errors.New("name must not be empty")
	ErrInvalidPriority    = errors.New("invalid priority")
)
