// Package platform hosts the property API.
//
// New validates the configuration, opens the store against the storage path,
// builds the Fiber app and binds it on 0.0.0.0:<port>. Any failure along the
// way is logged and leaves the platform idle instead of crashing the host:
//
//	p := platform.New(logger, cfg)
//	if !p.Running() {
//	    // misconfigured or port unavailable; details are in the log
//	}
//	defer p.Close(ctx)
//
// ConfigureAccessory is the hook the host calls for every entity it restored
// from its cache; the property API ignores them.
package platform
