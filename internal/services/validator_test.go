package services

import (
	"errors"
	"testing"

	"github.com/tbourn/cerberus-api/internal/domain"
)

func TestValidatePatchRequest_Accepts(t *testing.T) {
	cases := []struct {
		name string
		ct   string
		body string
		want string
	}{
		{"plain", "application/json", `{"code":"print('hello')"}`, "print('hello')"},
		{"charset param", "application/json; charset=utf-8", `{"code":"x = 1"}`, "x = 1"},
		{"upper case type", "Application/JSON", `{"code":"y"}`, "y"},
		{"vendor json", "application/vnd.api+json", `{"code":"z"}`, "z"},
		{"empty string", "application/json", `{"code":""}`, ""},
		{"extra fields ignored", "application/json", `{"code":"a","lang":"py"}`, "a"},
		{"whitespace around value", "application/json", "{ \"code\" :\n \"b\\nc\" }", "b\nc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidatePatchRequest(tc.ct, []byte(tc.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code = %q; want %q", got.Code, tc.want)
			}
		})
	}
}

func TestValidatePatchRequest_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		ct     string
		body   string
		reason domain.ValidationReason
		msg    string
	}{
		{"no content type", "", `{"code":"x"}`, domain.ReasonNotJSON, MsgNotJSON},
		{"text/plain", "text/plain", "not json", domain.ReasonNotJSON, MsgNotJSON},
		{"form", "application/x-www-form-urlencoded", "code=x", domain.ReasonNotJSON, MsgNotJSON},
		{"broken json", "application/json", `{"code":`, domain.ReasonNotJSON, MsgNotJSON},
		{"empty body", "application/json", ``, domain.ReasonNotJSON, MsgNotJSON},
		{"trailing garbage", "application/json", `{"code":"x"} junk`, domain.ReasonNotJSON, MsgNotJSON},
		{"missing code", "application/json", `{"foo":"bar"}`, domain.ReasonInvalidField, MsgInvalidField},
		{"number code", "application/json", `{"code":123}`, domain.ReasonInvalidField, MsgInvalidField},
		{"object code", "application/json", `{"code":{"a":1}}`, domain.ReasonInvalidField, MsgInvalidField},
		{"array code", "application/json", `{"code":["x"]}`, domain.ReasonInvalidField, MsgInvalidField},
		{"bool code", "application/json", `{"code":true}`, domain.ReasonInvalidField, MsgInvalidField},
		{"null code", "application/json", `{"code":null}`, domain.ReasonInvalidField, MsgInvalidField},
		{"array document", "application/json", `["code"]`, domain.ReasonInvalidField, MsgInvalidField},
		{"string document", "application/json", `"code"`, domain.ReasonInvalidField, MsgInvalidField},
		{"null document", "application/json", `null`, domain.ReasonInvalidField, MsgInvalidField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidatePatchRequest(tc.ct, []byte(tc.body))
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *domain.ValidationError, got %v", err)
			}
			if ve.Reason != tc.reason || ve.Message != tc.msg {
				t.Fatalf("got (%s, %q); want (%s, %q)", ve.Reason, ve.Message, tc.reason, tc.msg)
			}
		})
	}
}

func TestIsJSONContentType(t *testing.T) {
	yes := []string{"application/json", " application/json ; charset=utf-8", "application/problem+json"}
	no := []string{"", "text/json", "application/jsonx", "text/plain+json", "multipart/form-data"}
	for _, v := range yes {
		if !isJSONContentType(v) {
			t.Fatalf("isJSONContentType(%q) = false", v)
		}
	}
	for _, v := range no {
		if isJSONContentType(v) {
			t.Fatalf("isJSONContentType(%q) = true", v)
		}
	}
}
