// Package funcs provides placeholder functions beyond the built-in set of
// package props.
//
//	{{expr:1 + 2}}                      3
//	{{expr:env("HOME") + "/bin"}}       /home/user/bin
//	{{pathprefix:PATH:/opt/bin}}        /opt/bin:/usr/bin:/bin
//
// Register them with [props.WithFunction] or [props.Component.AddFunction].
package funcs
