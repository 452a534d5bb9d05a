package handler

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

// TestHandlerAnnotations keeps the swag blocks on the API handlers in step
// with the routes registered by Setup.
func TestHandlerAnnotations(t *testing.T) {
	want := map[string]string{
		"Ask":     "/ask [post]",
		"Analyze": "/analyze [post]",
		"Status":  "/status/{video_id} [get]",
		"Usage":   "/usage [get]",
	}

	fset := token.NewFileSet()
	found := map[string]bool{}
	for _, file := range []string{"qa.go", "video.go"} {
		f, err := parser.ParseFile(fset, file, nil, parser.ParseComments)
		if err != nil {
			t.Fatalf("parse %s: %v", file, err)
		}
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil {
				continue
			}
			route, ok := want[fn.Name.Name]
			if !ok {
				continue
			}
			found[fn.Name.Name] = true

			doc := fn.Doc.Text()
			for _, tag := range []string{"@Summary", "@Tags", "@Produce", "@Success"} {
				if !strings.Contains(doc, tag) {
					t.Errorf("%s: missing %s", fn.Name.Name, tag)
				}
			}
			if !strings.Contains(doc, "@Router       "+route) {
				t.Errorf("%s: @Router should be %q, doc:\n%s", fn.Name.Name, route, doc)
			}
		}
	}
	for name := range want {
		if !found[name] {
			t.Errorf("handler %s not found", name)
		}
	}
}
