// Package build dispatches player builds to the engine's build pipeline.
//
// The Dispatcher collects the enabled scenes of the project, computes the
// version-tagged output location for a platform, hands the work to an Engine
// and reports a one-line result. The engine itself (compiling, packaging) is
// an opaque collaborator behind the Engine interface.
//
// Dispatch never fails because of a build result: success and failure are both
// logged and returned as an Outcome. The only error surfaced to callers is a
// failure to create the output directory.
package build
