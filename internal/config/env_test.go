package config

import "testing"

func TestCookieSecure(t *testing.T) {
	cases := []struct {
		appEnv string
		want   bool
	}{
		{"development", false},
		{"dev", false},
		{"local", false},
		{"test", false},
		{"", false},
		{"  Development  ", false},
		{"production", true},
		{"Production", true},
		{"staging", true},
		{"preview", true},
	}

	for _, tc := range cases {
		e := Env{AppEnv: tc.appEnv}
		if got := e.CookieSecure(); got != tc.want {
			t.Errorf("CookieSecure with APP_ENV=%q = %v, want %v", tc.appEnv, got, tc.want)
		}
	}
}
