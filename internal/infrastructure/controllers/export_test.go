package controllers

// SetExitForTest replaces the process exit used by the backup controller.
func (it *BackupController) SetExitForTest(exit func(code int)) {
	it.exit = exit
}
