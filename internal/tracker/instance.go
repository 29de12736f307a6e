package tracker

import (
	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/event"

	"go.uber.org/zap"
)

// DataSetChange describes a wholesale swap of the active dataset. Either side
// may be nil.
type DataSetChange struct {
	Old dataset.ProjectTimeStore
	New dataset.ProjectTimeStore
}

// Instance owns the active dataset handle. Consumers hold a reference to the
// Instance and follow DataSetChanged instead of caching the dataset.
type Instance struct {
	dataset dataset.ProjectTimeStore
	changed event.Feed[DataSetChange]
	settled event.Feed[DataSetChange]
	logger  *zap.Logger
}

// NewInstance creates an instance with ds active. ds may be nil.
func NewInstance(ds dataset.ProjectTimeStore, logger *zap.Logger) *Instance {
	return &Instance{
		dataset: ds,
		logger:  logger,
	}
}

// DataSet returns the active dataset, possibly nil.
func (i *Instance) DataSet() dataset.ProjectTimeStore {
	return i.dataset
}

// SetDataSet swaps the active dataset and announces the change. Setting the
// same handle again does nothing. The caller keeps ownership of the old
// dataset and is responsible for closing it.
func (i *Instance) SetDataSet(ds dataset.ProjectTimeStore) {
	if ds == i.dataset {
		return
	}
	change := DataSetChange{Old: i.dataset, New: ds}
	i.dataset = ds

	i.logger.Info("Active dataset changed",
		zap.Bool("had_previous", change.Old != nil),
		zap.Bool("has_new", change.New != nil),
	)
	i.changed.Send(change)
	i.settled.Send(change)
}

// SubscribeDataSetChanged registers fn for dataset swaps.
func (i *Instance) SubscribeDataSetChanged(fn func(DataSetChange)) *event.Subscription {
	return i.changed.Subscribe(fn)
}

// SubscribeDataSetSettled registers fn to run after every DataSetChanged
// handler has seen a swap, so consumers that were re-attached can be relied on.
func (i *Instance) SubscribeDataSetSettled(fn func(DataSetChange)) *event.Subscription {
	return i.settled.Subscribe(fn)
}
