package ioreport

import (
	"github.com/gnames/gnkreport/pkg/config"
	"github.com/gnames/gnkreport/pkg/gnkreport"
)

// NewWithStore creates a Reporter that saves reports to store.
func NewWithStore(cfg *config.Config, store gnkreport.Store) gnkreport.Reporter {
	res := New(cfg).(*reporter)
	res.store = store
	return res
}
