/*
eink-activate derives the activation code that unlocks an HM213 e-ink badge (DA14585 based,
models HM213_A25H01, HM213_A25L01, HM213_B25H01 and HM213_B25L01) from the last six hex digits
of its Bluetooth MAC address. The badge shows the MAC address on screen until it is activated.

Without arguments the tool reads one line at a time:

	> 68:2B:FE
	682BFE -> 2322231 (ternary)
	> analyze 67a78c
	...
	> quit

A line is either a command (see 'help') or a MAC suffix. Type 'quit', 'exit' or 'q' to leave.
The same commands can be given once on the command line:

	eink-activate -algorithm modulo derive 123456

Two algorithms are available. 'ternary' produces the seven-digit button code entered with the
three badge keys; only the verified examples are known to be correct, every other code is a guess.
'modulo' produces the decimal code suggested by the first firmware analysis.

Additional verified examples can be supplied with -known FILE:

	examples:
	  - suffix: "68:2B:FE"
	    code: "2322231"

Settings can also be taken from EINK_VERBOSE, EINK_ALGORITHM, EINK_KNOWN_FILE, EINK_SCAN_TIMEOUT
and EINK_NAME_PREFIX. Command line flags take precedence.

The 'scan' command listens for badge advertisements over BLE and derives codes for every badge
in range. On Linux it needs CAP_NET_ADMIN; on macOS the MAC address is hidden by CoreBluetooth.
*/
package main
