// Command gen-sample writes a randomized .op document for exercising the
// engine and the MCP tools against realistic content.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/agentic-research/opal/internal/doc"
	"github.com/agentic-research/opal/internal/opfile"
)

var palette = []string{"#2563EB", "#DC2626", "#16A34A", "#D97706", "#7C3AED"}

func main() {
	out := flag.String("out", "sample.op", "output path")
	frames := flag.Int("frames", 4, "number of top-level frames")
	seed := flag.Int64("seed", 0, "random seed (0 uses a fixed default)")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	d := doc.New("Generated sample")
	d.Variables = map[string]doc.VariableDefinition{
		"accent": {Type: "color", Value: palette[rng.Intn(len(palette))]},
		"gap":    {Type: "number", Value: 8.0},
		"surface": {Type: "color", Values: []doc.ThemedValue{
			{Theme: map[string]string{"mode": "light"}, Value: "#FFFFFF"},
			{Theme: map[string]string{"mode": "dark"}, Value: "#0B0B0F"},
		}},
	}
	d.Themes = map[string][]string{"mode": {"light", "dark"}}

	x := 0.0
	for i := range *frames {
		frame := makeFrame(rng, i, x)
		d.Children = append(d.Children, frame)
		x += frame.Width.Px + 40
	}

	// One component definition with an instance, so detach and override
	// paths have something to chew on.
	def := d.Children[0]
	def.Reusable = true
	d.Children = append(d.Children, &doc.Node{
		ID:   doc.NewID(),
		Kind: doc.KindRef,
		Name: def.Name,
		Ref:  def.ID,
		X:    x,
		Y:    0,
	})

	if err := opfile.Save(*out, d); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s: %d top-level node(s)\n", *out, len(d.Children))
}

func makeFrame(rng *rand.Rand, index int, x float64) *doc.Node {
	w := 200 + float64(rng.Intn(4))*50
	h := 120 + float64(rng.Intn(4))*40
	frame := &doc.Node{
		ID:     doc.NewID(),
		Kind:   doc.KindFrame,
		Name:   fmt.Sprintf("Frame %d", index+1),
		X:      x,
		Width:  doc.Px(w),
		Height: doc.Px(h),
		Fill:   []doc.Fill{{Type: "solid", Color: "$surface"}},
		Gap:    doc.RefScalar("$gap"),
	}
	frame.Children = append(frame.Children, &doc.Node{
		ID: doc.NewID(), Kind: doc.KindText,
		Content: fmt.Sprintf("Heading %d", index+1),
		X:       16, Y: 16, FontSize: doc.Num(18),
	})
	for j := range 1 + rng.Intn(3) {
		frame.Children = append(frame.Children, &doc.Node{
			ID: doc.NewID(), Kind: doc.KindRectangle,
			X: 16, Y: 48 + float64(j)*36,
			Width: doc.Px(w - 32), Height: doc.Px(28),
			Fill:         []doc.Fill{{Type: "solid", Color: "$accent"}},
			CornerRadius: doc.Num(6),
		})
	}
	return frame
}
