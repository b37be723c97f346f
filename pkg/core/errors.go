package core

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace groups the registered error codes of this module
const Codespace = "pathtracer"

// Registered errors. Construction-time failures wrap one of these so callers
// can match with errors.Is regardless of the detail message.
var (
	ErrInvalidCamera   = errorsmod.Register(Codespace, 2, "invalid camera configuration")
	ErrInvalidGeometry = errorsmod.Register(Codespace, 3, "invalid geometry")
	ErrInvalidMaterial = errorsmod.Register(Codespace, 4, "invalid material")
	ErrInvalidConfig   = errorsmod.Register(Codespace, 5, "invalid configuration")
	ErrUnknownScene    = errorsmod.Register(Codespace, 6, "unknown scene")
	ErrOutput          = errorsmod.Register(Codespace, 7, "output failure")
)
