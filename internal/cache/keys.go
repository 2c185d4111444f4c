package cache

import (
	"encoding/json"
	"maps"
	"regexp"
	"strings"
)

// Key families
const (
	StatesKey           = "states_data"
	districtDataPrefix  = "district_data_"
	districtsPrefix     = "districts_"
	apiPrefix           = "api_"
	DistrictDataPattern = "^" + districtDataPrefix
	apiKeyParam         = "api-key"
)

// DistrictDataKey returns the key of the cached records of one district.
// An empty year selects all years.
func DistrictDataKey(districtCode, year string) string {
	if year == "" {
		return districtDataPrefix + districtCode
	}
	return districtDataPrefix + districtCode + "_" + year
}

// DistrictDataKeyPattern matches every cached entry of one district
func DistrictDataKeyPattern(districtCode string) string {
	return "^" + districtDataPrefix + regexp.QuoteMeta(districtCode) + "($|_)"
}

// DistrictsKey returns the key of the district list of one state
func DistrictsKey(stateCode string) string {
	return districtsPrefix + stateCode
}

// APIResponseKey returns the key of a raw upstream response. The API key is
// never part of the cache key. Params are encoded as JSON, which sorts map keys.
func APIResponseKey(endpoint string, params map[string]string) string {
	filtered := maps.Clone(params)
	delete(filtered, apiKeyParam)
	if filtered == nil {
		filtered = map[string]string{}
	}
	// Marshalling a map[string]string cannot fail.
	encoded, _ := json.Marshal(filtered)
	return apiPrefix + endpoint + "_" + string(encoded)
}

// Kind returns the key family of key, used to label metrics
func Kind(key string) string {
	switch {
	case key == StatesKey:
		return "states"
	case strings.HasPrefix(key, districtDataPrefix):
		return "district_data"
	case strings.HasPrefix(key, districtsPrefix):
		return "districts"
	case strings.HasPrefix(key, apiPrefix):
		return "api"
	default:
		return "other"
	}
}
