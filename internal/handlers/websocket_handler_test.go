package handlers

import "testing"

type fakeConnLocals map[string]interface{}

func (f fakeConnLocals) Locals(key string) interface{} {
	return f[key]
}

func TestConnUserID(t *testing.T) {
	tests := []struct {
		name   string
		locals fakeConnLocals
		wantID string
		wantOK bool
	}{
		{"authenticated connection", fakeConnLocals{"userID": "user-1"}, "user-1", true},
		{"missing local", fakeConnLocals{}, "", false},
		{"empty user id", fakeConnLocals{"userID": ""}, "", false},
		{"non-string local", fakeConnLocals{"userID": 42}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, ok := connUserID(tt.locals)
			if ok != tt.wantOK {
				t.Fatalf("connUserID ok = %v, want %v", ok, tt.wantOK)
			}
			if userID != tt.wantID {
				t.Errorf("connUserID = %q, want %q", userID, tt.wantID)
			}
		})
	}
}
