// Package governance extends the base adapter with administratively managed
// hook sets and fee configuration. It keeps the dispatch path untouched and
// layers an access-controlled registry and fee administration service on
// top of the core contracts.
package governance
