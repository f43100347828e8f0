package authapi

import "testing"

func TestLoadConfigFromEnv_MaxBodyBytes(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{in: "", want: defaultMaxBodyBytes},
		{in: "2048", want: 2048},
		{in: "-1", want: defaultMaxBodyBytes},
		{in: "lots", want: defaultMaxBodyBytes},
	}

	for _, tc := range tests {
		t.Setenv("SNS_API_MAX_BODY_BYTES", tc.in)
		got := LoadConfigFromEnv().MaxBodyBytes
		if got != tc.want {
			t.Fatalf("SNS_API_MAX_BODY_BYTES=%q: got %d, want %d", tc.in, got, tc.want)
		}
	}
}
