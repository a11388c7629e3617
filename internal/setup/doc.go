// Package setup removes a pmc installation: the install directory, the
// binary symlink, the storage directory and the PATH lines the installer
// added to shell startup files.
//
// Command-layer code in cmd/pmc/ shows the gathered state, asks for
// confirmation and delegates the work here:
//
//	layout := setup.DefaultLayout(home, storageDir)
//	info := setup.GatherUninstallInfo(layout, nil)
//	result, err := setup.Uninstall(layout, false)
package setup
