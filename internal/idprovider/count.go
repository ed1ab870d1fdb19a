package idprovider

import (
	"sync/atomic"

	"github.com/operator-framework/bnb/pkg/bnb"
)

var _ bnb.IDProvider = &IncreasingIDProvider{}

// IncreasingIDProvider issues cut ids 1, 2, 3, ... Each run owns its
// own provider so that independent searches never share a counter.
type IncreasingIDProvider struct {
	id uint64
}

func MonotonicallyIncreasingIDProvider() *IncreasingIDProvider {
	return &IncreasingIDProvider{}
}

func (i *IncreasingIDProvider) NextCutID() bnb.CutID {
	return bnb.CutID(atomic.AddUint64(&i.id, 1))
}

// Issued returns how many ids have been handed out.
func (i *IncreasingIDProvider) Issued() uint64 {
	return atomic.LoadUint64(&i.id)
}
