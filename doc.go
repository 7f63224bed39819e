// SPDX-License-Identifier: EPL-2.0

// Package audmux is a runtime voice manager for game and interactive audio.
//
// It decides which sounds may play when the number of concurrent voices is
// bounded, evicts lower priority sounds to make room, and drives every voice
// from play to reclamation through generational handles that never alias a
// newer sound.
//
// # Packages
//
//   - voice: the Engine with admission, eviction and playback control
//   - arena: the fixed-size generational table behind voice handles
//   - bank: decoded assets plus sound, stream and mixer definitions
//   - graph: the small audio graph interface the engine drives
//   - graph/softgraph: a pure Go graph with a sample clock and offline rendering
//   - audio, formats/...: decoders for WAV, MP3, Ogg Vorbis and AIFF
//   - config: YAML and environment settings
//
// # Quick Start
//
// NewSoftwareEngine wires everything on top of the software graph:
//
//	sys, _ := audmux.NewSoftwareEngine(config.Default())
//	_ = sys.Bank.LoadAssetFile("door", "sfx/door.wav")
//	_ = sys.Bank.AddSound("door", bank.SoundDefinition{
//		Priority: bank.PriorityMedium,
//		Asset:    "door",
//		Gain:     1,
//	})
//	_ = sys.Engine.LoadBank(sys.Bank)
//
//	h, err := sys.Engine.PlayNamed("door", "")
//	if errors.Is(err, voice.ErrCapacityExceeded) {
//		// dropped under load
//	}
//	_ = sys.Engine.Balance(h, -0.5)
//
//	// Render offline, or call sys.Graph.Run to stream PCM in real time.
//	_ = sys.BounceWAV(out, 2*time.Second)
//
// Any other graph.Context implementation can be handed to voice.New directly.
package audmux
