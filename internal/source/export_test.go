package source

// FilenameFromURL exports filenameFromURL for testing.
var FilenameFromURL = filenameFromURL
