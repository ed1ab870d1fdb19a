package idprovider

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunID labels one search run in logs and reports.
type RunID string

type UUIDProviderFn func() (uuid.UUID, error)

type UUIDRunIDProvider struct {
	nextUUIDFn UUIDProviderFn
}

func NewUUIDRunIDProvider() *UUIDRunIDProvider {
	return &UUIDRunIDProvider{
		nextUUIDFn: func() (uuid.UUID, error) { return uuid.NewRandom() },
	}
}

func NewCustomUUIDRunIDProvider(nextUUIDFn UUIDProviderFn) *UUIDRunIDProvider {
	return &UUIDRunIDProvider{
		nextUUIDFn: nextUUIDFn,
	}
}

func (p *UUIDRunIDProvider) NextRunID() RunID {
	rid, err := p.nextUUIDFn()
	if err != nil {
		id := err.Error() + time.Now().String()
		id = hex.EncodeToString([]byte(id))
		return RunID(fmt.Sprintf("%s (with error: %s)", id, err))
	}
	return RunID(rid.String())
}
