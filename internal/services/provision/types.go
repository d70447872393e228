package provision

// Options parameterizes one replace-relink run.
type Options struct {
	// ProfileName is recorded on the run for audit only.
	ProfileName string
	// RootName narrows the server hierarchy to one subtree, typically a
	// factory. Empty means the whole tree.
	RootName string
	// StagingFile is the path of the staged-records JSON file.
	StagingFile string
	// DryRun resolves and reports every record without touching the server.
	DryRun bool
}

// TreeOptions parameterizes a scaffold push of one machine with its
// transmitter, measurement point and channel.
type TreeOptions struct {
	ParentName      string
	MachineName     string
	TransmitterName string
	TransmitterMAC  string
	SerialNumber    string
	// ImagePath, when set, is uploaded and attached as the machine picture.
	ImagePath string
}
