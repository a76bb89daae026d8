package core

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/janekbaraniewski/pacewatch/internal/parsers"
)

// Payload is the MicroAd campaign report response. Optional sections are
// pointers or nil slices; defaults are applied once, by the normalizer.
type Payload struct {
	Account []PayloadAccount `json:"account,omitempty"`
	Report  *PayloadReport   `json:"report,omitempty"`
}

type PayloadAccount struct {
	Name     *string           `json:"name,omitempty"`
	Campaign []PayloadCampaign `json:"campaign,omitempty"`
}

type PayloadCampaign struct {
	ID                 FlexString           `json:"id"`
	Name               string               `json:"name"`
	MonthlyChargeLimit []PayloadChargeLimit `json:"campaign_monthly_charge_limit,omitempty"`
}

type PayloadChargeLimit struct {
	Month       FlexString `json:"month"`
	ChargeLimit Number     `json:"charge_limit"`
}

type PayloadReport struct {
	Records []PayloadRecord `json:"records,omitempty"`
}

type PayloadRecord struct {
	CampaignID FlexString `json:"campaign_id"`
	Date       FlexString `json:"date"`
	Net        Number     `json:"net"`
	Gross      Number     `json:"gross"`
	Impression Number     `json:"impression"`
	Click      Number     `json:"click"`
}

// Number is a lenient float: numbers and numeric strings decode to their
// value, anything else decodes to 0 without failing the payload.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number(parsers.CoerceFloat(data))
	return nil
}

func (n Number) Float() float64 { return float64(n) }

// FlexString decodes JSON strings and numbers alike into their text form.
// Ids and months arrive as either depending on the API version.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*s = ""
			return nil
		}
		*s = FlexString(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		*s = ""
		return nil
	}
	if i, err := num.Int64(); err == nil {
		*s = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*s = FlexString(num.String())
	return nil
}

func (s FlexString) String() string { return string(s) }

// DecodePayload parses a report body.
func DecodePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}
