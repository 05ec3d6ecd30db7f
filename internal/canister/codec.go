package canister

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/merchantdash/internal/merchant"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformed is returned when a wire message does not have the expected shape.
var ErrMalformed = errors.New("malformed canister message")

const (
	fieldName               = "name"
	fieldEmailAddress       = "email_address"
	fieldPhoneNumber        = "phone_number"
	fieldEmailNotifications = "email_notifications"
	fieldPhoneNotifications = "phone_notifications"

	fieldStatus    = "status"
	fieldData      = "data"
	fieldErrorText = "error_text"
)

// EncodeMerchant converts a merchant record to its wire form.
func EncodeMerchant(m merchant.Merchant) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldName:               structpb.NewStringValue(m.Name),
		fieldEmailAddress:       structpb.NewStringValue(m.EmailAddress),
		fieldPhoneNumber:        structpb.NewStringValue(m.PhoneNumber),
		fieldEmailNotifications: structpb.NewBoolValue(m.EmailNotifications),
		fieldPhoneNotifications: structpb.NewBoolValue(m.PhoneNotifications),
	}}
}

// DecodeMerchant converts the wire form back into a merchant record.
// Missing fields decode to their zero value.
func DecodeMerchant(s *structpb.Struct) (merchant.Merchant, error) {
	var m merchant.Merchant
	if s == nil {
		return m, fmt.Errorf("%w: nil merchant", ErrMalformed)
	}

	var err error
	if m.Name, err = stringField(s, fieldName); err != nil {
		return m, err
	}
	if m.EmailAddress, err = stringField(s, fieldEmailAddress); err != nil {
		return m, err
	}
	if m.PhoneNumber, err = stringField(s, fieldPhoneNumber); err != nil {
		return m, err
	}
	if m.EmailNotifications, err = boolField(s, fieldEmailNotifications); err != nil {
		return m, err
	}
	if m.PhoneNotifications, err = boolField(s, fieldPhoneNotifications); err != nil {
		return m, err
	}
	return m, nil
}

// EncodeResponse converts a response envelope to its wire form.
func EncodeResponse(r *merchant.Response) *structpb.Struct {
	s := &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldStatus: structpb.NewNumberValue(float64(r.Status)),
	}}
	if r.Data != nil {
		s.Fields[fieldData] = structpb.NewStructValue(EncodeMerchant(*r.Data))
	}
	if r.ErrorText != "" {
		s.Fields[fieldErrorText] = structpb.NewStringValue(r.ErrorText)
	}
	return s
}

// DecodeResponse converts the wire form back into a response envelope.
func DecodeResponse(s *structpb.Struct) (*merchant.Response, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil response", ErrMalformed)
	}

	v, ok := s.Fields[fieldStatus]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformed, fieldStatus)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a number", ErrMalformed, fieldStatus)
	}

	r := &merchant.Response{Status: int(n.NumberValue)}

	if v, ok := s.Fields[fieldData]; ok {
		switch k := v.GetKind().(type) {
		case *structpb.Value_NullValue:
		case *structpb.Value_StructValue:
			m, err := DecodeMerchant(k.StructValue)
			if err != nil {
				return nil, err
			}
			r.Data = &m
		default:
			return nil, fmt.Errorf("%w: %s is not an object", ErrMalformed, fieldData)
		}
	}

	text, err := stringField(s, fieldErrorText)
	if err != nil {
		return nil, err
	}
	r.ErrorText = text

	return r, nil
}

// EncodeLogs converts log lines to their wire form.
func EncodeLogs(logs []string) *structpb.ListValue {
	l := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(logs))}
	for _, line := range logs {
		l.Values = append(l.Values, structpb.NewStringValue(line))
	}
	return l
}

// DecodeLogs converts the wire form back into ordered log lines.
func DecodeLogs(l *structpb.ListValue) ([]string, error) {
	if l == nil {
		return []string{}, nil
	}
	logs := make([]string, 0, len(l.Values))
	for i, v := range l.Values {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w: log entry %d is not a string", ErrMalformed, i)
		}
		logs = append(logs, s.StringValue)
	}
	return logs, nil
}

func stringField(s *structpb.Struct, key string) (string, error) {
	v, ok := s.Fields[key]
	if !ok {
		return "", nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NullValue:
		return "", nil
	default:
		return "", fmt.Errorf("%w: %s is not a string", ErrMalformed, key)
	}
}

func boolField(s *structpb.Struct, key string) (bool, error) {
	v, ok := s.Fields[key]
	if !ok {
		return false, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return k.BoolValue, nil
	case *structpb.Value_NullValue:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s is not a bool", ErrMalformed, key)
	}
}
