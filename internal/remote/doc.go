// Package remote is an interactive terminal remote control for a webOS TV.
//
// Arrow keys move the TV's focus, h and b press HOME and BACK, 3 opens the
// 3D menu and enter clicks. Every press goes out on the input pointer channel
// and is shown in a short log together with any error. g queries the current
// 3D mode over the control channel.
package remote
