// Package transport defines the WPForms payload. Field names come from the
// form builder and are not ours to change.
package transport

import "encoding/json"

// FlexibleString accepts both "2026-05-01" and {"value": "2026-05-01"},
// which WPForms emits depending on the field type.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}
	var wrapped struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*f = FlexibleString(wrapped.Value)
	return nil
}

type WPFormsRequest struct {
	ClientName      string         `json:"client_name"`
	ClientEmail     string         `json:"client_email"`
	ClientPhone     string         `json:"client_phone"`
	ClientIdealDate FlexibleString `json:"client_ideal_date"`
	OriginState     string         `json:"origin_state"`
	OriginCity      string         `json:"origin_city"`
	OriginFloor     string         `json:"origin_floor"`
	OriginHaulage   string         `json:"origin_haulage"`
	DestState       string         `json:"destination_state"`
	DestCity        string         `json:"destination_city"`
	DestFloor       string         `json:"destination_floor"`
	Inventory       string         `json:"client_invent"`
	Packing         string         `json:"client_packing"`
	Items           string         `json:"client_items"`
	OtherItem       string         `json:"client_other_item"`
	ServiceModality string         `json:"client_service_modality"`
	SafeMode        string         `json:"client_safe_mode"`
	InsuranceValue  *float64       `json:"client_insurance_val"`
	Terms           string         `json:"client_terms"`
}

type WPFormsResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"lead_id"`
}
