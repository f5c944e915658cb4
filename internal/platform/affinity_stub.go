//go:build !linux

package platform

import "errors"

var errUnsupported = errors.New("platform: not supported on this platform")

func PinToCore(core int) error { return errUnsupported }

func BindNUMANode(node int) error { return errUnsupported }
