/*
Package bleepbloops is a modular signal synthesis engine.

A patch is a Graph of Modules connected by signal and parameter wires.
Modules declare their ports, the graph validates connections and keeps
the topology acyclic for instantaneous wires, and the Engine renders the
compiled patch one block at a time against a sample counting Clock.

Audio leaves a patch through an Output module, which pushes finished
blocks into any BlockWriter: a file encoder, a playback bridge or a test
sink. The Bridge decouples rendering from a device callback with a
bounded queue, blocking the renderer when the device falls behind and
serving silence when the renderer does.

Parameters and topology may change while the engine runs. Edits are
applied between blocks, so every rendered block observes one consistent
view of the patch.
*/
package bleepbloops
