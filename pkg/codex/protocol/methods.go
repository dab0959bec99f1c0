package protocol

// Client request methods.
const (
	MethodInitialize             = "initialize"
	MethodThreadStart            = "thread/start"
	MethodThreadResume           = "thread/resume"
	MethodThreadFork             = "thread/fork"
	MethodThreadArchive          = "thread/archive"
	MethodThreadUnarchive        = "thread/unarchive"
	MethodThreadSetName          = "thread/name/set"
	MethodThreadCompactStart     = "thread/compact/start"
	MethodThreadRollback         = "thread/rollback"
	MethodThreadList             = "thread/list"
	MethodThreadLoadedList       = "thread/loaded/list"
	MethodThreadRead             = "thread/read"
	MethodModelList              = "model/list"
	MethodSetDefaultModel        = "setDefaultModel"
	MethodAppList                = "app/list"
	MethodSkillsList             = "skills/list"
	MethodSkillsRemoteRead       = "skills/remote/read"
	MethodSkillsRemoteWrite      = "skills/remote/write"
	MethodSkillsConfigWrite      = "skills/config/write"
	MethodConfigRead             = "config/read"
	MethodConfigValueWrite       = "config/value/write"
	MethodConfigBatchWrite       = "config/batchWrite"
	MethodConfigRequirementsRead = "configRequirements/read"
	MethodTurnStart              = "turn/start"
	MethodTurnInterrupt          = "turn/interrupt"
)

// Ptr returns a pointer to v. It keeps optional fields terse.
func Ptr[T any](v T) *T {
	return &v
}
