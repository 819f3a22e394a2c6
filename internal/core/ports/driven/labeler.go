package driven

// ClusterLabel is the human-readable labelling for one cluster.
type ClusterLabel struct {
	// Name is derived deterministically from the top keywords.
	Name string

	// Keywords are ranked most representative first.
	Keywords []string

	// LowConfidence is set when the cluster yielded no usable keywords.
	LowConfidence bool
}

// TopicLabeler derives names and ranked keyword lists for clusters by
// comparing term frequency inside each cluster against the whole corpus.
type TopicLabeler interface {
	// Label returns one ClusterLabel per cluster. clusters maps cluster
	// label to the member documents' texts; corpus is every document text
	// in the run, used for document-frequency weighting.
	Label(clusters map[int][]string, corpus []string) map[int]ClusterLabel
}
