// Package sam generates scripts for the SAM virtual machine from parsed
// passages.
//
// Every passage becomes one script, one instruction per line. Text is
// pushed as string literals into the VM's 512 byte text buffer and shown
// by a flush (!). Story variables live in registers, conditionals use the
// VM's cond [ true | false ] blocks, and the links of a passage turn into a
// menu read into register A followed by jumps (<n>j) to the chosen
// passage's index.
package sam
