// Package viz shows slice animations in the terminal.
//
// [Viewer] implements animator.Display with a Bubble Tea program:
//
//   - frames are drawn with half-block cells in true colour, or with the
//     braille [Canvas] when the terminal has no colour support
//   - a sidebar shows the slice position, how many frames have been
//     rendered, and an intensity histogram of the current slice
//
// # Key Bindings
//
//	Space      - Pause/Resume playback
//	Left/H     - Previous frame
//	Right/L    - Next frame
//	Home/End   - First/last frame
//	T          - Cycle color themes
//	?          - Show help overlay
//	Q          - Quit
package viz
