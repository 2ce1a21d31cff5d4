package domain

// RawPolicy is one record of result.youthPolicyList from the youth policy open API.
type RawPolicy struct {
	PolicyNo                string `json:"plcyNo"`
	PolicyName              string `json:"plcyNm"`
	PolicyDescription       string `json:"plcyExplnCn"`
	BasicPlanPolicyWayNo    string `json:"bscPlanPlcyWayNo"`
	ZipCode                 string `json:"zipCd"`
	ApplyPeriodTypeCode     string `json:"aplyPrdSeCd"`
	ApplyYmd                string `json:"aplyYmd"`
	BizPeriodBeginYmd       string `json:"bizPrdBgngYmd"`
	BizPeriodEndYmd         string `json:"bizPrdEndYmd"`
	BizPeriodEtc            string `json:"bizPrdEtcCn"`
	AgeLimitYn              string `json:"sprtTrgtAgeLmtYn"`
	MinAge                  string `json:"sprtTrgtMinAge"`
	MaxAge                  string `json:"sprtTrgtMaxAge"`
	SupportContent          string `json:"plcySprtCn"`
	EarnMinAmount           string `json:"earnMinAmt"`
	EarnMaxAmount           string `json:"earnMaxAmt"`
	EarnEtc                 string `json:"earnEtcCn"`
	SchoolCode              string `json:"schoolCd"`
	MajorCode               string `json:"plcyMajorCd"`
	AdditionalQualification string `json:"addAplyQlfcCndCn"`
	ParticipantRestriction  string `json:"ptcpPrpTrgtCn"`
	ApplyMethod             string `json:"plcyAplyMthdCn"`
	ScreeningMethod         string `json:"srngMthdCn"`
	ApplyURL                string `json:"aplyUrlAddr"`
	SubmitDocuments         string `json:"sbmsnDcmntCn"`
	EtcMatter               string `json:"etcMttrCn"`
	SupervisingInstitution  string `json:"sprvsnInstCdNm"`
	OperatingInstitution    string `json:"operInstCdNm"`
	ReferenceURL1           string `json:"refUrlAddr1"`
	ReferenceURL2           string `json:"refUrlAddr2"`
}

type YouthPolicyPaging struct {
	TotalCount int `json:"totCount"`
	PageNum    int `json:"pageNum"`
	PageSize   int `json:"pageSize"`
}

type YouthPolicyResult struct {
	Paging   YouthPolicyPaging `json:"pagging"`
	Policies []RawPolicy       `json:"youthPolicyList"`
}

type YouthPolicyResponse struct {
	ResultCode    int               `json:"resultCode"`
	ResultMessage string            `json:"resultMessage"`
	Result        YouthPolicyResult `json:"result"`
}
