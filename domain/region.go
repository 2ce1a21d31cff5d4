package domain

import "strings"

// Region is a broad administrative area a policy applies to.
type Region string

const (
	RegionNationwide Region = "NATIONWIDE"
	RegionSeoul      Region = "SEOUL"
	RegionBusan      Region = "BUSAN"
	RegionDaegu      Region = "DAEGU"
	RegionIncheon    Region = "INCHEON"
	RegionGwangju    Region = "GWANGJU"
	RegionDaejeon    Region = "DAEJEON"
	RegionUlsan      Region = "ULSAN"
	RegionGyeonggi   Region = "GYEONGGI"
	RegionGangwon    Region = "GANGWON"
	RegionChungbuk   Region = "CHUNGBUK"
	RegionChungnam   Region = "CHUNGNAM"
	RegionJeonbuk    Region = "JEONBUK"
	RegionJeonnam    Region = "JEONNAM"
	RegionGyeongbuk  Region = "GYEONGBUK"
	RegionGyeongnam  Region = "GYEONGNAM"
	RegionJeju       Region = "JEJU"
	RegionSejong     Region = "SEJONG"
	RegionEtc        Region = "ETC"
)

// NationwideDisplay is the residence text shown for policies covering every province.
const NationwideDisplay = "전국"

// Provinces lists the 17 first-level divisions. A policy touching all of them is nationwide.
var Provinces = []Region{
	RegionSeoul, RegionBusan, RegionDaegu, RegionIncheon, RegionGwangju, RegionDaejeon,
	RegionUlsan, RegionGyeonggi, RegionGangwon, RegionChungbuk, RegionChungnam, RegionJeonbuk,
	RegionJeonnam, RegionGyeongbuk, RegionGyeongnam, RegionJeju, RegionSejong,
}

var regionFullNames = map[Region]string{
	RegionNationwide: "전국",
	RegionSeoul:      "서울특별시",
	RegionBusan:      "부산광역시",
	RegionDaegu:      "대구광역시",
	RegionIncheon:    "인천광역시",
	RegionGwangju:    "광주광역시",
	RegionDaejeon:    "대전광역시",
	RegionUlsan:      "울산광역시",
	RegionGyeonggi:   "경기도",
	RegionGangwon:    "강원특별자치도",
	RegionChungbuk:   "충청북도",
	RegionChungnam:   "충청남도",
	RegionJeonbuk:    "전북특별자치도",
	RegionJeonnam:    "전라남도",
	RegionGyeongbuk:  "경상북도",
	RegionGyeongnam:  "경상남도",
	RegionJeju:       "제주특별자치도",
	RegionSejong:     "세종특별자치시",
	RegionEtc:        "기타",
}

// FullName returns the Korean administrative name.
func (r Region) FullName() string {
	return regionFullNames[r]
}

func (r Region) Valid() bool {
	_, ok := regionFullNames[r]
	return ok
}

// RegionFromDistrictName picks the province whose full name prefixes a district name,
// e.g. "서울특별시 종로구" -> SEOUL. Unmatched names map to ETC.
func RegionFromDistrictName(name string) Region {
	for _, r := range Provinces {
		if strings.HasPrefix(name, regionFullNames[r]) {
			return r
		}
	}
	return RegionEtc
}

// ParseRegion accepts the enum name case-insensitively.
func ParseRegion(s string) (Region, bool) {
	r := Region(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}
