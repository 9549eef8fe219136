package commands

import "errors"

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrQueryRequired            = "--query required"
	ErrSubjectConflict          = "pass either a string argument or --subject-file, not both"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgHistoryCleared           = "History cleared."
	MsgNoLastExecution          = "No history as yet"
)

// ErrNotOK is returned by evaluation commands run with --exit-code when a
// report came back unsuccessful.
var ErrNotOK = errors.New("pattern produced no successful result")
