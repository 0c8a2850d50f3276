// Package loader mounts feature modules on the HTTP router.
//
// Each feature implements Feature; the Manager keeps them in registration
// order and loads those that are enabled.
//
//	mgr := loader.NewManager()
//	mgr.Register(taxonomy.NewFeature(...), audit.NewFeature(...))
//	if err := mgr.LoadAll(app); err != nil {
//	    logger.Fatal("Failed to load features", zap.Error(err))
//	}
package loader
