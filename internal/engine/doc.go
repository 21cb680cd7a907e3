// Package engine is the host side of ghostmark: it gates inspection on the
// configuration bundle, walks trees or git revisions, fans documents out to
// workers and turns matches into findings.
package engine
