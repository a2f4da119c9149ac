package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

var (
	panelColor      = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
	buttonColor     = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	buttonHighlight = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	panelTextColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// newPanel builds the side panel: a status text and one button per viewer
// action. It returns the UI and the status text to update each frame.
func newPanel(v *Viewer, width, height int) (*ebitenui.UI, *widget.Text) {
	panelImg := imageui.NewNineSliceColor(panelColor)
	btnImg := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(buttonColor),
		Hover:   imageui.NewNineSliceColor(buttonHighlight),
		Pressed: imageui.NewNineSliceColor(buttonHighlight),
	}

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	btnTextColor := &widget.ButtonTextColor{Idle: panelTextColor}
	stretch := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})

	status := widget.NewText(
		widget.TextOpts.Text("", &face, panelTextColor),
		widget.TextOpts.MaxWidth(float64(width-20)),
		widget.TextOpts.WidgetOpts(stretch),
	)

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(btnImg),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.TextPadding(&widget.Insets{Top: 4, Bottom: 4}),
			widget.ButtonOpts.WidgetOpts(stretch),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width, height),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)
	panel.AddChild(status)
	panel.AddChild(button("Replan", v.replan))
	panel.AddChild(button("Expand obstacles", v.toggleExpand))
	panel.AddChild(button("Step", v.step))
	panel.AddChild(button("Walk", v.toggleWalk))
	panel.AddChild(button("Copy waypoints", v.copyWaypoints))
	panel.AddChild(button("Reload scene", v.reload))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}, status
}
