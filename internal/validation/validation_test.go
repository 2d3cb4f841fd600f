package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "convidado@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "laura@mail.example.com.br",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid name",
			input:   "João da Silva",
			wantErr: false,
		},
		{
			name:    "single name",
			input:   "Ana",
			wantErr: false,
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "name too short",
			input:   "É",
			wantErr: true,
		},
		{
			name:    "name with hyphen",
			input:   "Maria-Clara",
			wantErr: false,
		},
		{
			name:    "name with apostrophe",
			input:   "D'Ávila",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "password123",
			wantErr:  false,
		},
		{
			name:     "password exactly 8 characters",
			password: "pass1234",
			wantErr:  false,
		},
		{
			name:     "password too short",
			password: "pass123",
			wantErr:  true,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  true,
		},
		{
			name:     "long password",
			password: "thisIsAVeryLongPasswordThatShouldBeValid123",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{name: "mobile with punctuation", phone: "(11) 91234-5678", wantErr: false},
		{name: "with country code", phone: "+55 11 91234 5678", wantErr: false},
		{name: "landline digits only", phone: "1132345678", wantErr: false},
		{name: "too short", phone: "91234-567", wantErr: true},
		{name: "letters", phone: "11 9123A-5678", wantErr: true},
		{name: "empty", phone: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhone(tt.phone)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePhone(%q) error = %v, wantErr %v", tt.phone, err, tt.wantErr)
			}
		})
	}
}

func TestValidateInvitationCode(t *testing.T) {
	tests := []struct {
		code    string
		wantErr bool
	}{
		{code: "ABC123", wantErr: false},
		{code: "abc123", wantErr: false},
		{code: "ABC12", wantErr: true},
		{code: "ABC-12", wantErr: true},
		{code: "ABC1234", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := ValidateInvitationCode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInvitationCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGift(t *testing.T) {
	if err := ValidateGift("Cafeteira", 2000); err != nil {
		t.Errorf("ValidateGift() error = %v", err)
	}
	if err := ValidateGift(" ", 2000); err == nil {
		t.Error("ValidateGift() accepted an empty name")
	}
	if err := ValidateGift("Cafeteira", 0); err == nil {
		t.Error("ValidateGift() accepted a zero price")
	}
}
