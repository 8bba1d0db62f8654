/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	ErrDatabaseURLEnvVarNotSet          = errors.New("DATABASE_URL environment variable is not set")
	ErrDatabaseNameNotSpecified         = errors.New("database name not specified in connection string")
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrPatientNotFound                  = errors.New("patient not found")
	ErrVisitNotFound                    = errors.New("visit not found")
	ErrInvoiceItemNotFound              = errors.New("invoice item not found")
	ErrIdentifierExhausted              = errors.New("could not allocate a unique patient file identifier")
	ErrInvalidInvoiceItem               = errors.New("invoice item needs a description, a positive quantity and a non-negative price")
)
