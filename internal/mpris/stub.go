//go:build !linux

package mpris

import (
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/reel/internal/clipset"
	"github.com/llehouerou/reel/internal/dispatch"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ dispatch.Dispatcher, _ *clipset.Set, _ *logrus.Entry) (*Adapter, error) {
	return &Adapter{}, nil
}

// Update is a no-op on non-Linux platforms.
func (a *Adapter) Update() {}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
