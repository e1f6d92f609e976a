package entities

import "errors"

// Fatal errors abort a run before or during the connection step. Everything
// below folder level is absorbed by the sync engine.
var (
	ErrConfig        = errors.New("invalid configuration")
	ErrConnection    = errors.New("connection failed")
	ErrAuth          = errors.New("authentication failed")
	ErrPath          = errors.New("remote path not accessible")
	ErrProtocol      = errors.New("protocol error")
	ErrTransfer      = errors.New("transfer failed")
	ErrUpload        = errors.New("upload failed")
	ErrRunInProgress = errors.New("a run is already in progress")
)
