package hexcore

import "github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"

// PresentationFactory builds the presentation object for a cell during
// load. at is the world position the manager computed for the cell's
// center; the returned handle is stored on the cell untouched.
type PresentationFactory interface {
	Instantiate(template string, at hex.Point) Handle
}

// PresentationFactoryFunc adapts a function to PresentationFactory.
type PresentationFactoryFunc func(template string, at hex.Point) Handle

// Instantiate calls f.
func (f PresentationFactoryFunc) Instantiate(template string, at hex.Point) Handle {
	return f(template, at)
}

type nullFactory struct{}

func (nullFactory) Instantiate(string, hex.Point) Handle { return nil }
