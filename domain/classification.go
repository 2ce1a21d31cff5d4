package domain

import "strings"

type Classification string

const (
	ClassificationJob                   Classification = "JOB"
	ClassificationResident              Classification = "RESIDENT"
	ClassificationEducation             Classification = "EDUCATION"
	ClassificationWelfareAndCulture     Classification = "WELFARE_AND_CULTURE"
	ClassificationParticipationAndRight Classification = "PARTICIPATION_AND_RIGHT"
	ClassificationEtc                   Classification = "ETC"
)

var classificationByCode = map[string]Classification{
	"001": ClassificationJob,
	"002": ClassificationResident,
	"003": ClassificationEducation,
	"004": ClassificationWelfareAndCulture,
	"005": ClassificationParticipationAndRight,
}

// ClassificationFromCode maps the provider's basic-plan code. Unknown codes become ETC.
func ClassificationFromCode(code string) Classification {
	if c, ok := classificationByCode[strings.TrimSpace(code)]; ok {
		return c
	}
	return ClassificationEtc
}

func (c Classification) Valid() bool {
	switch c {
	case ClassificationJob, ClassificationResident, ClassificationEducation,
		ClassificationWelfareAndCulture, ClassificationParticipationAndRight, ClassificationEtc:
		return true
	}
	return false
}

func ParseClassification(s string) (Classification, bool) {
	c := Classification(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Valid()
}
