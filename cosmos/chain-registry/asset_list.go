package registry

import (
	"encoding/json"
	"strings"
)

func parseAssetListResponse(assetListBytes []byte) (*AssetList, error) {
	var assetList AssetList
	if err := json.Unmarshal(assetListBytes, &assetList); err != nil {
		return nil, err
	}
	return &assetList, nil
}

// Convenience methods

func (al *AssetList) ExtractAssetByBase(base string) (*Asset, error) {
	for i := range al.Assets {
		if strings.EqualFold(al.Assets[i].Base, base) {
			return &al.Assets[i], nil
		}
	}
	return nil, ErrNoMatchingAsset
}

func (a *Asset) ExtractDenomByUnit(needleDenomUnit string) (*DenomUnit, error) {
	for i := range a.DenomUnits {
		if strings.EqualFold(a.DenomUnits[i].Denom, needleDenomUnit) {
			return &a.DenomUnits[i], nil
		}
	}
	return nil, ErrNoMatchingDenom
}

// Decimals is the exponent of the display unit. Ex. 1 DORA = 10^18 peaka gives 18.
func (a *Asset) Decimals() (int, error) {
	denomUnit, err := a.ExtractDenomByUnit(a.Display)
	if err != nil {
		return 0, err
	}
	return denomUnit.Exponent, nil
}
