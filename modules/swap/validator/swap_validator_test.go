package validator

import (
	"slot-swapper/modules/swap/dto"
	"testing"

	"github.com/google/uuid"
)

func TestValidateProposeSwapRequest(t *testing.T) {
	id := uuid.NewString()
	cases := []struct {
		name        string
		req         dto.ProposeSwapRequest
		wantError   bool
		wantMissing bool
	}{
		{"valid", dto.ProposeSwapRequest{MySlotID: id, TheirSlotID: uuid.NewString()}, false, false},
		{"padded ids", dto.ProposeSwapRequest{MySlotID: " " + id + " ", TheirSlotID: uuid.NewString()}, false, false},
		{"missing target", dto.ProposeSwapRequest{MySlotID: id}, true, true},
		{"blank offer", dto.ProposeSwapRequest{MySlotID: "  ", TheirSlotID: id}, true, true},
		{"malformed offer", dto.ProposeSwapRequest{MySlotID: "x", TheirSlotID: id}, true, false},
		{"missing wins over malformed", dto.ProposeSwapRequest{MySlotID: "x"}, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			result := ValidateProposeSwapRequest(&req)
			if result.HasError() != tc.wantError {
				t.Fatalf("HasError = %v, want %v (%+v)", result.HasError(), tc.wantError, result.Errors)
			}
			if result.Missing() != tc.wantMissing {
				t.Errorf("Missing = %v, want %v", result.Missing(), tc.wantMissing)
			}
		})
	}
}
