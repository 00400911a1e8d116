// Package reader pulls the embedded type info out of a compiled shared
// object.
package reader

import (
	"fmt"

	"github.com/coreos/pkg/dlopen"
)

import "C"

// ReadTypeInfo loads the shared object at from and returns the NUL
// terminated string stored at symbol.
func ReadTypeInfo(from, symbol string) (string, error) {
	handle, err := dlopen.GetHandle([]string{from})
	if err != nil {
		return "", err
	}
	defer handle.Close()

	sym, err := handle.GetSymbolPointer(symbol)
	if err != nil {
		return "", err
	}

	if sym == nil {
		return "", fmt.Errorf("%s: symbol %s is null", from, symbol)
	}

	return C.GoString((*C.char)(sym)), nil
}
