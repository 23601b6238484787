// Package lui is a small retained-mode widget toolkit for [Ebitengine] whose
// sprites come from named texture atlases.
//
// # Atlases
//
// An [AtlasPool] maps atlas names to loaded atlases. Each atlas is one
// texture plus named regions read from a descriptor file, either the LUI
// text format ("name x y w h" per line) or TexturePacker JSON:
//
//	pool := lui.NewAtlasPool()
//	if err := pool.LoadAtlas("default", "Res/atlas.txt", "Res/atlas.png"); err != nil {
//		log.Fatal(err)
//	}
//
// [DefaultPool] returns a process-wide pool for code that doesn't pass one
// around.
//
// # Widgets
//
// Every widget is a [Node]. Sprites are attached with an [ImageRef], built
// from strings with [Ref]:
//
//	n := lui.NewNode("button", pool)
//	left := n.AttachSprite(0, 0, lui.Ref(":btn_left"))         // default atlas
//	mid := n.AttachSprite(10, 0, lui.Ref("default:btn_mid"))    // named atlas
//	img := n.AttachSprite(50, 0, lui.Ref("Res/atlas.png"))      // whole file
//
// A reference that can't be resolved never aborts widget construction: the
// sprite shows a magenta placeholder, the failure is logged and
// [Sprite.Err] reports it.
//
// # Events
//
// Handlers are bound by event name and run in registration order:
//
//	n.Bind(lui.EventMouseOver, func(lui.Event) { left.SetTexture(lui.Ref(":btn_left_hover")) })
//
// A [Root] turns Ebitengine mouse input into "mouseover", "mouseout",
// "mousedown", "mouseup" and "click" events and draws the tree. It
// implements [ebiten.Game]; [Run] opens a window around it.
//
// Everything here assumes a single UI goroutine.
//
// [Ebitengine]: https://ebitengine.org
package lui
