// Package textutil provides token fingerprints and cosine similarity for
// comparing short names, such as a game title against an award description.
//
// Tokenization folds case and diacritics, splits on anything that is not a
// letter or digit, and drops tokens shorter than two characters, so
// "Kennerspiel des Jahres" and "kennerspiel-des-jahres" fingerprint alike.
package textutil
