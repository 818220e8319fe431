package domain

import "testing"

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		want    string
		wantErr bool
	}{
		{name: "bare registrable domain", host: "example.com", want: "example.com"},
		{name: "subdomain stripped", host: "a.b.example.com", want: "example.com"},
		{name: "multi-label public suffix", host: "a.b.example.co.uk", want: "example.co.uk"},
		{name: "case and port normalized", host: "Sub.Example.COM:443", want: "example.com"},
		{name: "ipv4 passes through", host: "203.0.113.5", want: "203.0.113.5"},
		{name: "ipv6 passes through", host: "[2001:db8::1]:8080", want: "2001:db8::1"},
		{name: "single label falls back", host: "localhost", want: "localhost"},
		{name: "unknown tld keeps one label", host: "tiny.example", want: "tiny.example"},
		{name: "unknown tld strips subdomains", host: "a.tiny.example", want: "tiny.example"},
		{name: "empty host", host: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RegistrableDomain(tt.host)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RegistrableDomain(%q) error = %v, wantErr %v", tt.host, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("RegistrableDomain(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}
