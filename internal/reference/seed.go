package reference

import "strings"

func coord(v float64) *float64 { return &v }

// SeedStates are the states loaded by the seed command
var SeedStates = []State{
	{Code: "up", NameHi: "उत्तर प्रदेश", NameEn: "Uttar Pradesh"},
	{Code: "mh", NameHi: "महाराष्ट्र", NameEn: "Maharashtra"},
	{Code: "br", NameHi: "बिहार", NameEn: "Bihar"},
	{Code: "wb", NameHi: "पश्चिम बंगाल", NameEn: "West Bengal"},
	{Code: "mp", NameHi: "मध्य प्रदेश", NameEn: "Madhya Pradesh"},
}

// SeedDistricts are the districts loaded by the seed command
var SeedDistricts = []District{
	{Code: "up_lucknow", NameHi: "लखनऊ", NameEn: "Lucknow", StateCode: "up", Latitude: coord(26.8467), Longitude: coord(80.9462)},
	{Code: "up_kanpur", NameHi: "कानपुर", NameEn: "Kanpur", StateCode: "up", Latitude: coord(26.4499), Longitude: coord(80.3319)},
	{Code: "up_varanasi", NameHi: "वाराणसी", NameEn: "Varanasi", StateCode: "up", Latitude: coord(25.3176), Longitude: coord(82.9739)},
	{Code: "up_gorakhpur", NameHi: "गोरखपुर", NameEn: "Gorakhpur", StateCode: "up", Latitude: coord(26.7606), Longitude: coord(83.3732)},
	{Code: "up_agra", NameHi: "आगरा", NameEn: "Agra", StateCode: "up", Latitude: coord(27.1767), Longitude: coord(78.0081)},
	{Code: "up_allahabad", NameHi: "इलाहाबाद", NameEn: "Allahabad", StateCode: "up", Latitude: coord(25.4358), Longitude: coord(81.8463)},
	{Code: "up_bareilly", NameHi: "बरेली", NameEn: "Bareilly", StateCode: "up", Latitude: coord(28.3670), Longitude: coord(79.4304)},
	{Code: "up_meerut", NameHi: "मेरठ", NameEn: "Meerut", StateCode: "up", Latitude: coord(28.9845), Longitude: coord(77.7064)},
}

// StateCodeForName resolves an English state name, in any case and spacing,
// to its code using the seed data.
func StateCodeForName(name string) (string, bool) {
	name = strings.Join(strings.Fields(name), " ")
	for _, s := range SeedStates {
		if strings.EqualFold(s.NameEn, name) {
			return s.Code, true
		}
	}
	return "", false
}
