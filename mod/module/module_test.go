package module

import (
	"testing"
)

func TestVersionString(t *testing.T) {
	if got := (Version{Path: "root", Version: "6.06.04"}).String(); got != "root@6.06.04" {
		t.Errorf("String() = %q", got)
	}
	if got := (Version{Path: "root"}).String(); got != "root" {
		t.Errorf("String() = %q", got)
	}
}

func TestDirName(t *testing.T) {
	tests := []struct {
		v       Version
		key     string
		want    string
		wantErr bool
	}{
		{Version{Path: "root", Version: "6.06.04"}, "ab12", "root@6.06.04-ab12", false},
		{Version{Path: "root", Version: "5.34.36"}, "", "root@5.34.36", false},
		{Version{Path: "../root", Version: "1"}, "", "", true},
		{Version{Path: "root", Version: "../../x"}, "", "", true},
		{Version{Path: "", Version: "1"}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			got, err := DirName(tt.v, tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DirName err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DirName = %q, want %q", got, tt.want)
			}
		})
	}
}
