package registry

import "errors"

var (
	ErrNoFeeTokenFound = errors.New("no fee tokens found in registry")
	ErrNoApiFound      = errors.New("no rpc endpoint found in registry")
	ErrNoMatchingAsset = errors.New("no matching asset found in asset list")
	ErrNoMatchingDenom = errors.New("no matching denom unit found for asset")
)
