package validator

import "testing"

type passwordPayload struct {
	Password string `validate:"required,password"`
}

func TestPasswordRule(t *testing.T) {
	cv := NewValidator()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Str0ngpass", false},
		{"too short", "Ab1", true},
		{"no uppercase", "weakpass1", true},
		{"no lowercase", "WEAKPASS1", true},
		{"no digit", "Weakpassword", true},
		{"exactly eight chars", "Abcdefg1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.Validate(&passwordPayload{Password: tt.password})
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	cv := NewValidator()

	err := cv.Validate(&passwordPayload{Password: "weak"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	formatted := cv.FormatValidationErrors(err)
	if _, ok := formatted["Password"]; !ok {
		t.Errorf("expected Password key in formatted errors, got %v", formatted)
	}
}
