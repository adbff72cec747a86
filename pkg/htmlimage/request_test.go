package htmlimage

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"htmlimage/pkg/css"
)

func TestLocalSize(t *testing.T) {
	tests := []struct {
		name   string
		req    css.Requested
		want   Size
		wantOK bool
	}{
		{"both axes", css.Requested{Width: "120.7", Height: "40px"}, Size{Width: Px(120), Height: Px(40), Status: Resolved}, true},
		{"percent passes through", css.Requested{Width: "50%", Height: "10"}, Size{Width: Pct("50%"), Height: Px(10), Status: Resolved}, true},
		{"missing height", css.Requested{Width: "100"}, Size{}, false},
		{"missing width", css.Requested{Height: "100"}, Size{}, false},
		{"unparseable", css.Requested{Width: "auto", Height: "10"}, Size{}, false},
		{"negative", css.Requested{Width: "-5", Height: "10"}, Size{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := localSize(tt.req)
			if ok != tt.wantOK {
				t.Fatalf("localSize(%+v) ok = %v, want %v", tt.req, ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("size mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
