package emil

// Version is the editor's release string, bumped on release tags.
const Version = "0.1.0"
